package utils

import (
	"fmt"
	"log"
	"time"

	"eduledger/config"
	"eduledger/governance"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[GOVERNANCE-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartGovernanceScheduler runs the deadline sweep. Proposal state is
// already advanced lazily on every access; the sweep only guarantees
// deadlines are honored promptly even when nobody is reading.
func StartGovernanceScheduler(service *governance.Service) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.GovernanceSweepCron, func() {
		finalized, err := service.FinalizeDue(time.Now())
		if err != nil {
			logScheduler("Error finalizing due proposals: " + err.Error())
			return
		}
		if finalized > 0 {
			logScheduler(fmt.Sprintf("%d proposal(s) reached their deadline and were finalized", finalized))
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule governance sweep: %v", err)
	}

	c.Start()
	logScheduler("Governance deadline sweep started")
	return c
}
