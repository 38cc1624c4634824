package services

import "log"

// safeBlock runs a side-channel effect (activity logging, notifications)
// and swallows its failure. One subsystem's outage must never fail the
// primary operation that triggered it.
func safeBlock(label string, fn func() error) {
	if err := fn(); err != nil {
		log.Printf("safe block %q failed: %v", label, err)
	}
}
