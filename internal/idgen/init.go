package idgen

import (
	"log"
	"os"
	"strconv"
)

// InitFromEnv initializes the default node from SNOWFLAKE_NODE_ID so
// multi-instance deployments keep distinct monotonic sequences. An
// unset variable falls back to node 1 for single-instance setups.
func InitFromEnv() {
	nodeIDStr := os.Getenv("SNOWFLAKE_NODE_ID")
	if nodeIDStr == "" {
		Init(1)
		return
	}
	nodeID, err := strconv.ParseInt(nodeIDStr, 10, 64)
	if err != nil || nodeID < 0 || nodeID > 1023 {
		log.Fatalf("[IDGen] invalid SNOWFLAKE_NODE_ID: %q", nodeIDStr)
	}
	Init(nodeID)
	log.Printf("[IDGen] snowflake node initialized: nodeID=%d", nodeID)
}
