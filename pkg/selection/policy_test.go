package selection

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dupenorris/pkg/models"
)

func fileItem(path string, modTime time.Time) *models.Item {
	return &models.Item{Path: path, ModTime: modTime, Size: 100, Fingerprint: "sig"}
}

func noteItem(path string, modTime time.Time) *models.Item {
	item := fileItem(path, modTime)
	item.Note = &models.Note{Body: "body"}
	return item
}

func frozenResult(groups ...*models.DuplicateGroup) *models.ScanResult {
	result := models.NewScanResult("/scan/root")
	result.Groups = groups
	result.Freeze(true)
	return result
}

func contentGroup(id string, items ...*models.Item) *models.DuplicateGroup {
	return &models.DuplicateGroup{
		ID:         id,
		Basis:      models.BasisContent,
		Confidence: models.ConfidenceExact,
		Items:      items,
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PolicyKind
		wantErr bool
	}{
		{"KeepNewest", "keep-newest", KeepNewest, false},
		{"KeepOldest", "keep-oldest", KeepOldest, false},
		{"KeepShortestPath", "keep-shortest-path", KeepShortestPath, false},
		{"Manual", "manual", Manual, false},
		{"KeepMatching", `keep-matching:\.orig$`, KeepMatching, false},
		{"KeepMatchingBadRegex", "keep-matching:[unclosed", "", true},
		{"Unknown", "keep-random", "", true},
		{"Empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, policy.Kind)
			// Canonical form survives a round trip
			assert.Equal(t, tt.input, policy.String())
		})
	}
}

func TestApply(t *testing.T) {
	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)

	t.Run("KeepNewest", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			fileItem("/data/old.bin", older),
			fileItem("/data/new.bin", newer),
		))

		plan, err := Apply(result, Policy{Kind: KeepNewest})
		require.NoError(t, err)

		assert.Equal(t, models.ActionKeep, plan.Actions["/data/new.bin"].Action)
		assert.Equal(t, models.ActionDelete, plan.Actions["/data/old.bin"].Action)
		assert.Equal(t, "duplicate of /data/new.bin", plan.Actions["/data/old.bin"].Reason)
	})

	t.Run("KeepOldest", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			fileItem("/data/old.bin", older),
			fileItem("/data/new.bin", newer),
		))

		plan, err := Apply(result, Policy{Kind: KeepOldest})
		require.NoError(t, err)

		assert.Equal(t, models.ActionKeep, plan.Actions["/data/old.bin"].Action)
		assert.Equal(t, models.ActionDelete, plan.Actions["/data/new.bin"].Action)
	})

	t.Run("ModTimeTieBreaksOnPath", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			fileItem("/data/deeper/file.bin", older),
			fileItem("/data/file.bin", older),
		))

		plan, err := Apply(result, Policy{Kind: KeepNewest})
		require.NoError(t, err)

		// Same timestamp: the shorter path wins
		assert.Equal(t, models.ActionKeep, plan.Actions["/data/file.bin"].Action)
	})

	t.Run("EqualLengthTieBreaksLexicographically", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			fileItem("/data/b.bin", older),
			fileItem("/data/a.bin", older),
		))

		plan, err := Apply(result, Policy{Kind: KeepShortestPath})
		require.NoError(t, err)

		assert.Equal(t, models.ActionKeep, plan.Actions["/data/a.bin"].Action)
	})

	t.Run("KeepShortestPath", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			fileItem("/data/archive/backups/file.bin", older),
			fileItem("/data/file.bin", newer),
		))

		plan, err := Apply(result, Policy{Kind: KeepShortestPath})
		require.NoError(t, err)

		assert.Equal(t, models.ActionKeep, plan.Actions["/data/file.bin"].Action)
	})

	t.Run("KeepMatching", func(t *testing.T) {
		policy, err := Parse(`keep-matching:originals/`)
		require.NoError(t, err)

		result := frozenResult(contentGroup("g1",
			fileItem("/data/originals/photo.jpg", older),
			fileItem("/data/downloads/photo.jpg", newer),
		))

		plan, err := Apply(result, policy)
		require.NoError(t, err)

		assert.Equal(t, models.ActionKeep, plan.Actions["/data/originals/photo.jpg"].Action)
	})

	t.Run("KeepMatchingNoMatch", func(t *testing.T) {
		policy, err := Parse(`keep-matching:nowhere/`)
		require.NoError(t, err)

		result := frozenResult(contentGroup("g1",
			fileItem("/data/a.jpg", older),
			fileItem("/data/b.jpg", newer),
		))

		_, err = Apply(result, policy)
		var ambiguous *models.AmbiguousPolicyError
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, "g1", ambiguous.GroupID)
		assert.Equal(t, 0, ambiguous.Matches)
	})

	t.Run("KeepMatchingMultipleMatches", func(t *testing.T) {
		policy, err := Parse(`keep-matching:\.jpg$`)
		require.NoError(t, err)

		result := frozenResult(contentGroup("g1",
			fileItem("/data/a.jpg", older),
			fileItem("/data/b.jpg", newer),
		))

		_, err = Apply(result, policy)
		var ambiguous *models.AmbiguousPolicyError
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, 2, ambiguous.Matches)
	})

	t.Run("Manual", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			fileItem("/data/a.bin", older),
			fileItem("/data/b.bin", newer),
		))

		plan, err := Apply(result, Policy{
			Kind: Manual,
			Keep: map[string]bool{"/data/b.bin": true},
		})
		require.NoError(t, err)

		assert.Equal(t, models.ActionKeep, plan.Actions["/data/b.bin"].Action)
		assert.Equal(t, "manual selection", plan.Actions["/data/b.bin"].Reason)
	})

	t.Run("ManualEmptyKeepSet", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			fileItem("/data/a.bin", older),
			fileItem("/data/b.bin", newer),
		))

		_, err := Apply(result, Policy{Kind: Manual})
		var invalid *models.InvalidPolicyResultError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "g1", invalid.GroupID)
	})

	t.Run("ManualKeepsBoth", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			fileItem("/data/a.bin", older),
			fileItem("/data/b.bin", newer),
		))

		_, err := Apply(result, Policy{
			Kind: Manual,
			Keep: map[string]bool{"/data/a.bin": true, "/data/b.bin": true},
		})
		var invalid *models.InvalidPolicyResultError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("MergeNotes", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			noteItem("/vault/daily.md", older),
			noteItem("/vault/daily copy.md", newer),
		))

		plan, err := Apply(result, Policy{Kind: KeepNewest, MergeNotes: true})
		require.NoError(t, err)

		act := plan.Actions["/vault/daily.md"]
		assert.Equal(t, models.ActionMergeInto, act.Action)
		assert.Equal(t, "/vault/daily copy.md", act.MergeTarget)
		assert.Len(t, plan.Merges(), 1)
		assert.Empty(t, plan.Deletions())
	})

	t.Run("MergeNotesSkipsPlainFiles", func(t *testing.T) {
		result := frozenResult(contentGroup("g1",
			noteItem("/vault/daily.md", newer),
			fileItem("/vault/export.bin", older),
		))

		plan, err := Apply(result, Policy{Kind: KeepNewest, MergeNotes: true})
		require.NoError(t, err)

		// A non-note loser is deleted, never merged
		assert.Equal(t, models.ActionDelete, plan.Actions["/vault/export.bin"].Action)
	})

	t.Run("UnfrozenResult", func(t *testing.T) {
		result := models.NewScanResult("/scan/root")

		_, err := Apply(result, Policy{Kind: KeepNewest})
		var invalid *models.InvalidPolicyResultError
		require.True(t, errors.As(err, &invalid))
	})

	t.Run("MultipleGroups", func(t *testing.T) {
		result := frozenResult(
			contentGroup("g1",
				fileItem("/data/a.bin", older),
				fileItem("/data/b.bin", newer),
			),
			contentGroup("g2",
				fileItem("/data/c.bin", older),
				fileItem("/data/d.bin", newer),
			),
		)

		plan, err := Apply(result, Policy{Kind: KeepNewest})
		require.NoError(t, err)

		assert.Len(t, plan.Actions, 4)
		assert.Len(t, plan.Deletions(), 2)
		require.NoError(t, plan.Validate())
	})
}
