package registry

// NewClientWithKey exports newClientWithKey for testing.
var NewClientWithKey = newClientWithKey
