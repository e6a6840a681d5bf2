package testkit

import (
	"testing"

	"github.com/sol-surfer-ai/agent-core/storage"
)

func TestMemCAS_Conformance(t *testing.T) {
	RunCASConformance(t, func(t *testing.T) storage.CAS {
		return NewMemCAS()
	})
}
