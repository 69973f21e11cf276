package output

import "github.com/fakefrog/fakefrog/pkg/sensor"

// Output receives the readings of one cycle. The CSV recorder and the
// console mirror both implement it.
type Output interface {
	Publish([]sensor.Reading) error
	Close() error
}

// constructors are in subpackages
