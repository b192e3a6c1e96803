package types_test

import (
	"testing"

	"github.com/arthur-debert/pubmirror/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestOutcomeSkipped(t *testing.T) {
	tests := []struct {
		outcome types.Outcome
		skipped bool
	}{
		{types.OutcomeLinked, false},
		{types.OutcomeCopied, false},
		{types.OutcomeDeleted, false},
		{types.OutcomeSkippedMissing, true},
		{types.OutcomeSkippedExists, true},
		{types.OutcomeSkippedIgnored, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			assert.Equal(t, tt.skipped, tt.outcome.Skipped())
		})
	}
}

func TestMirrorResult(t *testing.T) {
	result := &types.MirrorResult{}
	result.Add(types.EntryResult{Entry: "index.php", Outcome: types.OutcomeLinked})
	result.Add(types.EntryResult{Entry: "robots.txt", Outcome: types.OutcomeSkippedMissing})
	result.Add(types.EntryResult{Entry: "storage/app/media", Outcome: types.OutcomeLinked})

	assert.Equal(t, 2, result.Count(types.OutcomeLinked))
	assert.Equal(t, 1, result.Count(types.OutcomeSkippedMissing))
	assert.Equal(t, 2, result.Mutations())

	entry, ok := result.Find("storage/app/media")
	assert.True(t, ok)
	assert.Equal(t, types.OutcomeLinked, entry.Outcome)

	_, ok = result.Find("missing")
	assert.False(t, ok)
}

func TestMirrorOptionsMode(t *testing.T) {
	assert.Equal(t, "Mirror", types.MirrorOptions{}.Mode())
	assert.Equal(t, "Delete", types.MirrorOptions{Delete: true}.Mode())
}

func TestDeleteTargetValid(t *testing.T) {
	assert.True(t, types.DeleteSource.Valid())
	assert.True(t, types.DeleteDestination.Valid())
	assert.False(t, types.DeleteTarget("both").Valid())
}
