// Package uid issues the snowflake IDs of point records. IDs are unique
// across replicas as long as each one runs with its own machine ID.
package uid

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node    *snowflake.Node
	initErr error
	once    sync.Once
)

var ErrNotInitialized = errors.New("uid: Init was not called")

// Init sets the machine ID once. Later calls return the first result.
func Init(machineID int64) error {
	once.Do(func() {
		node, initErr = snowflake.NewNode(machineID)
		if initErr != nil {
			initErr = fmt.Errorf("uid: invalid machine id %d: %w", machineID, initErr)
		}
	})
	return initErr
}

// Generate panics before Init: a record without an ID must never be written.
func Generate() int64 {
	if node == nil {
		panic(ErrNotInitialized)
	}
	return node.Generate().Int64()
}
