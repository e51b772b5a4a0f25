package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/report"
)

// Notifier sends desktop notifications when long scans finish
type Notifier struct {
	enabled bool
	logger  *zap.Logger
	send    func(title, message, icon string) error
}

// New creates a notifier; a disabled one does nothing
func New(enabled bool, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		enabled: enabled,
		logger:  logger,
		send:    beeep.Notify,
	}
}

// RunFinished announces a completed plan run. Delivery failures are logged
// and otherwise ignored.
func (n *Notifier) RunFinished(run *plan.Run) {
	steps, failed, findings := report.Summary(run)

	category := "Plan"
	if run.Plan != nil && run.Plan.Category != "" {
		category = run.Plan.Category
	}
	msg := fmt.Sprintf("%d steps, %d failed, %d findings", steps, failed, findings)
	n.Send("HackFusion: "+category+" complete", msg)
}

// Send delivers one notification
func (n *Notifier) Send(title, message string) {
	if !n.enabled {
		return
	}
	if err := n.send(title, message, ""); err != nil {
		n.logger.Warn("desktop notification failed", zap.Error(err))
	}
}
