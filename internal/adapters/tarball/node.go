package tarball

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/depot/internal/core/ports"
)

// NodeID is the unique identifier for the archive unpacker Graft node.
const NodeID graft.ID = "adapter.tarball"

func init() {
	graft.Register(graft.Node[ports.Unpacker]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Unpacker, error) {
			return NewUnpacker(afero.NewOsFs()), nil
		},
	})
}
