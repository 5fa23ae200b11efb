package engine

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// step is one named mutation inside a multi-entity operation.
type step struct {
	name string
	run  func() error
}

// runSteps executes steps in order with no rollback: the store cannot undo a
// committed write. When a later step fails, the steps already applied stay
// applied and get logged so the partial state is visible; callers must
// re-query before retrying.
func runSteps(op string, steps []step) error {
	applied := make([]string, 0, len(steps))
	for _, s := range steps {
		if err := s.run(); err != nil {
			if len(applied) > 0 {
				log.WithFields(log.Fields{
					"op":      op,
					"applied": applied,
					"failed":  s.name,
				}).Warn("operation partially applied, no rollback")
			}
			return fmt.Errorf("%s: %s: %w", op, s.name, err)
		}
		applied = append(applied, s.name)
	}
	return nil
}
