package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

const defaultNodeID = 1

var (
	node    *snowflake.Node
	nodeErr error
	once    sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// Only the first call has an effect.
func Init(nodeID int64) error {
	once.Do(func() {
		node, nodeErr = snowflake.NewNode(nodeID)
	})
	return nodeErr
}

// New generates a new time-ordered int64 ID. Navigation IDs come from here.
// Without a prior Init the default node is used.
func New() int64 {
	if err := Init(defaultNodeID); err != nil || node == nil {
		return 0
	}
	return node.Generate().Int64()
}
