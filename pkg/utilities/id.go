package utilities

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// NewRequestID generates the opaque identifier handed back to a submitter: a
// random 128-bit UUID in its canonical text form.
func NewRequestID() string {
	return uuid.NewString()
}

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// NewAttachmentID generates a snowflake ID string for stored upload names,
// using a node ID from the environment variable SNOWFLAKE_NODE. If node setup
// fails it falls back to generating a KSUID string to ensure a unique ID is
// returned.
func NewAttachmentID() string {
	nodeID := int64(1)
	if nodeEnv := os.Getenv("SNOWFLAKE_NODE"); nodeEnv != "" {
		if parsed, err := strconv.ParseInt(nodeEnv, 10, 64); err == nil {
			nodeID = parsed
		}
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return NewKSUID()
	}
	return node.Generate().String()
}
