package utilities

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewRunID returns an identifier attached to every log line of one export.
// The snowflake node comes from SNOWFLAKE_NODE and defaults to 1.
func NewRunID() string {
	nodeID := int64(1)
	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			nodeID = n
		}
	}
	return runIDWithNode(nodeID)
}

// runIDWithNode falls back to a KSUID when the node id is out of range.
func runIDWithNode(nodeID int64) string {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return ksuid.New().String()
	}
	return node.Generate().String()
}
