package web

import (
	"context"

	"github.com/fitsight/fitsight/internal/log"
)

// RunDispatcher drains the worker's rep queue, persisting each event and
// broadcasting it to websocket clients. Exactly one dispatcher must run;
// it is the at-most-once counting consumer, so reps reach history and the
// dashboard without loss. Events carry their own session id and rep
// number, so reps still queued across a session boundary stay attributed
// to the session that produced them. Blocks until ctx is cancelled.
func (s *Server) RunDispatcher(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-s.worker.Events():
			sum := ev.Event.Summarize()
			log.Info("rep detected", "session", ev.SessionID, "rep", ev.Count,
				"rom", sum.RangeOfMotion, "duration", sum.Duration)

			if s.store != nil {
				if err := s.store.RecordRep(ctx, ev.SessionID, ev.Count, sum); err != nil {
					log.Warn("rep persist failed", "error", err)
				}
			}
			s.events.BroadcastJSON(repEvent(ev.SessionID, ev.Count, sum))
		}
	}
}
