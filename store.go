package campusnav

import (
	"fmt"
	"sync/atomic"
)

// NetworkStore holds network currently in service. Reload builds brand-new network and swaps reference atomically:
// requests which already loaded previous network keep working with that snapshot
type NetworkStore struct {
	current atomic.Pointer[Network]
}

// NewNetworkStore returns store serving given network (may be nil)
func NewNetworkStore(network *Network) *NetworkStore {
	store := &NetworkStore{}
	if network != nil {
		store.current.Store(network)
	}
	return store
}

// Load returns current network snapshot or nil if nothing has been loaded yet
func (store *NetworkStore) Load() *Network {
	return store.current.Load()
}

// Swap replaces current network and returns previous one
func (store *NetworkStore) Swap(network *Network) *Network {
	return store.current.Swap(network)
}

// Reload builds network via given function and puts it in service.
// On error previous network stays in service and error is returned as is
func (store *NetworkStore) Reload(build func() (*Network, error)) (*Network, error) {
	network, err := build()
	if err != nil {
		return nil, err
	}
	if network == nil {
		return nil, fmt.Errorf("Reload produced no network")
	}
	store.current.Store(network)
	return network, nil
}
