package tarball

// NewUnpackerWithKey exposes newUnpackerWithKey for testing.
var NewUnpackerWithKey = newUnpackerWithKey
