package security

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestProjectionMatchesRecordedSubset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 24).Draw(t, "n")
		custom := attrs(n)

		var d WellKnownAttributeData
		actions := make([]Action, n)
		paths := make([]string, n)
		for i := 0; i < n; i++ {
			if !rapid.Bool().Draw(t, "marked") {
				continue
			}
			actions[i] = Action(rapid.IntRange(1, 15).Draw(t, "action"))
			d.SetAction(i, actions[i], n)
			if rapid.Bool().Draw(t, "fixup") {
				paths[i] = "perm.xml"
				d.SetFixupPath(i, paths[i], n)
			}
		}

		var wantIdx []int
		for i, a := range actions {
			if a != 0 {
				wantIdx = append(wantIdx, i)
			}
		}

		var got []Attribute
		for a := range d.Attributes(custom) {
			got = append(got, a)
		}
		require.Len(t, got, len(wantIdx))

		for k, i := range wantIdx {
			require.Equal(t, actions[i], got[k].Action)
			ref, wrapped := got[k].Attribute.(*PermissionSetFileReference)
			if paths[i] != "" {
				require.True(t, wrapped)
				require.Same(t, custom[i], ref.CustomAttribute)
			} else {
				require.False(t, wrapped)
				require.Same(t, custom[i], got[k].Attribute)
			}
		}
	})
}
