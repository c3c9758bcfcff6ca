package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanExportKey(t *testing.T) {
	k1 := PlanExportKey("user-1", "plan-9")
	k2 := PlanExportKey("user-1", "plan-9")

	assert.True(t, strings.HasPrefix(k1, "exports/user-1/plan-9/"))
	assert.True(t, strings.HasSuffix(k1, ".json"))
	assert.NotEqual(t, k1, k2)
}
