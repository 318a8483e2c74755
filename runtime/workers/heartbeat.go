package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker broadcasts a Heartbeat system envelope to every
// registered session on a fixed period. It is a liveness signal only:
// the server never evicts a session for missing heartbeats, eviction is
// driven exclusively by read failure on the connection.
type HeartbeatWorker struct {
	log         *slog.Logger
	broadcaster contract.Broadcaster
	period      time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, broadcaster contract.Broadcaster, period time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:         log,
		broadcaster: broadcaster,
		period:      period,
	}
}

var _ contract.Worker = (*HeartbeatWorker)(nil)

// Run emits one heartbeat per tick until the context is cancelled. The
// payload carries self stats (pid, cpu, rss) of the relay process;
// clients must treat it as opaque.
func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "period", w.period)
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.broadcaster.Broadcast(domain.NewEnvelope(domain.SystemMessage{
				Subtype: domain.SystemHeartbeat,
				Payload: selfStats(p),
			}))
		}
	}
}

// selfStats renders technical metrics of the relay process. Failures are
// tolerated: a heartbeat with an empty payload is still a heartbeat.
func selfStats(p *process.Process) string {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return ""
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("pid=%d cpu=%.2f rss=%d", p.Pid, cpuPercent, memInfo.RSS)
}
