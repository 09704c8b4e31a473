package client

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/safariyetu/bigqueryobjects/spi/config"
)

var clientRegistry *registry

func init() {
	clientRegistry = &registry{
		mutex:     sync.Mutex{},
		providers: make(map[config.ClientType]Provider),
	}
}

type registry struct {
	mutex     sync.Mutex
	providers map[config.ClientType]Provider
}

// RegisterClient registers a config.ClientType to a Provider
// implementation which creates the Client when requested
func RegisterClient(name config.ClientType, provider Provider) bool {
	clientRegistry.mutex.Lock()
	defer clientRegistry.mutex.Unlock()
	if _, present := clientRegistry.providers[name]; !present {
		clientRegistry.providers[name] = provider
		return true
	}
	return false
}

// NewClient instantiates a new instance of the requested
// Client when available, otherwise returns an error.
func NewClient(name config.ClientType, config *config.Config) (Client, error) {
	clientRegistry.mutex.Lock()
	defer clientRegistry.mutex.Unlock()
	if p, present := clientRegistry.providers[name]; present {
		return p(config)
	}
	return nil, errors.Errorf("ClientType '%s' doesn't exist", name)
}
