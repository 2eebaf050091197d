// replay - offline rep detection over a recorded pose log.
//
// Reads a JSONL pose log (one {"angles": {...}, "timestamp_utc": ms} object
// per line), runs it through the rep detector for the chosen workout, and
// writes the rep-summary document.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fitsight/fitsight/internal/config"
	"github.com/fitsight/fitsight/internal/log"
	"github.com/fitsight/fitsight/pkg/pose"
	"github.com/fitsight/fitsight/pkg/reps"
)

type logLine struct {
	Angles       map[pose.Joint]float64 `json:"angles"`
	TimestampUTC int64                  `json:"timestamp_utc"`
}

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		workout    = flag.String("workout", "pushups", "workout id")
		input      = flag.String("in", "pose_log.json", "pose log (JSONL)")
		output     = flag.String("out", "reps_summary.json", "summary output path")
	)
	flag.Parse()

	log.Init("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}
	rule, ok := cfg.Workouts[*workout]
	if !ok {
		log.Error("unknown workout", "workout", *workout)
		os.Exit(1)
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Error("pose log open failed", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	detector := reps.NewDetector(rule)
	summaries := []reps.Summary{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		var line logLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			log.Warn("skipping bad line", "line", lineNo, "error", err)
			continue
		}
		if event := detector.Feed(pose.JointAngles(line.Angles), line.TimestampUTC); event != nil {
			sum := event.Summarize()
			summaries = append(summaries, sum)
			log.Info("rep detected", "rep", len(summaries),
				"rom", sum.RangeOfMotion, "duration", sum.Duration)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("pose log read failed", "error", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(summaries, "", "    ")
	if err != nil {
		log.Error("summary encode failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Error("summary write failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%d reps → %s\n", len(summaries), *output)
}
