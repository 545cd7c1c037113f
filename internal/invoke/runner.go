package invoke

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/binary"
)

// Resolver maps a helper name to an executable path, materializing it if
// needed. *binary.Manager implements it.
type Resolver interface {
	ResolveHelperPath(ctx context.Context, b binary.Binary) (string, error)
}

// Runner runs named helpers.
type Runner struct {
	resolver Resolver
	invoker  *Invoker
}

// NewRunner creates a Runner.
func NewRunner(resolver Resolver, invoker *Invoker) *Runner {
	return &Runner{resolver: resolver, invoker: invoker}
}

// RunHelper runs helper b with args. The platform gate is checked before
// resolution so an unsupported host never writes anything to disk.
func (r *Runner) RunHelper(ctx context.Context, b binary.Binary, args ...string) (ExitCode, error) {
	if !r.invoker.Supported() {
		return r.invoker.unsupported(), nil
	}

	path, err := r.resolver.ResolveHelperPath(ctx, b)
	if err != nil {
		return ExitUnsupported, fmt.Errorf("resolve %s: %w", b, err)
	}

	return r.invoker.Run(ctx, path, args)
}
