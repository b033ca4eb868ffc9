package eventstream

import "errors"

// ErrNilEvent indicates a nil event payload was provided to a publisher.
var ErrNilEvent = errors.New("nil stream completed event")

// ErrNoBrokers indicates a broker-backed publisher was configured without
// any broker address.
var ErrNoBrokers = errors.New("no eventstream brokers configured")
