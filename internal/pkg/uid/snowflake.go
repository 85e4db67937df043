package uid

import (
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// NumberID generates unique int64 identifiers.
type NumberID interface {
	Generate() int64
}

// Snowflake generates time-ordered int64 IDs using a per-process node.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a Snowflake generator. The node number is derived from
// the hostname so multiple instances behind the same database rarely collide.
func NewSnowflake() (*Snowflake, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "otpgate"
	}

	h := fnv.New32a()
	h.Write([]byte(hostname))

	node, err := snowflake.NewNode(int64(h.Sum32() % 1024))
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new int64 ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
