package types

import (
	"fmt"
	"strings"
)

// Profile identifies one browser profile and its directory
type Profile struct {
	// ID is the stable numeric id: 0 for the default profile, n > 0 for
	// "Profile n". Negative when the profile was selected by directory name.
	ID int

	// Dir is the profile directory name, e.g. "Default" or "Profile 2"
	Dir string

	// DisplaySuffix tags per-profile artifacts (backups) so the cleanup
	// collaborator can find them by pattern
	DisplaySuffix string
}

// ProfileForID resolves a numeric profile id to its conventional directory
func ProfileForID(id int) Profile {
	if id == 0 {
		return Profile{ID: 0, Dir: "Default", DisplaySuffix: "Default"}
	}
	return Profile{
		ID:            id,
		Dir:           fmt.Sprintf("Profile %d", id),
		DisplaySuffix: fmt.Sprintf("Profile-%d", id),
	}
}

// ProfileForDir wraps an arbitrary supplied directory name
func ProfileForDir(dir string) Profile {
	return Profile{
		ID:            -1,
		Dir:           dir,
		DisplaySuffix: strings.ReplaceAll(dir, " ", "-"),
	}
}
