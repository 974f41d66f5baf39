package operations

import (
	"github.com/vivtool/vivtool/pkg/diff"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/types"
)

// DiffOptions selects the comparison. Refs holds zero, one, or two
// snapshot numbers; see diff.Resolver for the three scenarios.
type DiffOptions struct {
	Profile types.Profile
	Refs    []int

	// Save writes the diff text to the fixed diff artifact
	Save bool
}

// DiffResult carries the rendered comparison
type DiffResult struct {
	Result diff.Result

	// OutputPath is set when the diff artifact was written
	OutputPath string
}

// Diff compares two preference documents and optionally saves the unified
// diff as an artifact. Identical documents save nothing.
func Diff(env *Env, opts DiffOptions) (*DiffResult, error) {
	result, err := env.resolver().Compare(opts.Profile, opts.Refs)
	if err != nil {
		return nil, err
	}

	out := &DiffResult{Result: result}
	if opts.Save && !result.Identical {
		path := env.Paths.DiffPath(opts.Profile)
		if err := filesystem.AtomicWriteFile(env.FS, path, []byte(result.Text)); err != nil {
			return nil, err
		}
		out.OutputPath = path
	}
	return out, nil
}
