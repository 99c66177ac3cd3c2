package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var nodeMap sync.Map // map[string]*snowflake.Node

// InitNode initializes a named snowflake node.
func InitNode(name string, nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("InitNode failed: %w", err)
	}
	nodeMap.Store(name, n)
	return nil
}

// Init initializes the default node.
func Init(nodeID int64) {
	if err := InitNode("default", nodeID); err != nil {
		panic(err)
	}
}

// NewFrom generates an ID on a named node.
func NewFrom(name string) uint64 {
	val, ok := nodeMap.Load(name)
	if !ok {
		panic(fmt.Sprintf("snowflake node not initialized: %s", name))
	}
	return uint64(val.(*snowflake.Node).Generate().Int64())
}

// New generates an ID on the default node.
func New() uint64 {
	return NewFrom("default")
}
