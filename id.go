package sharedmap

import (
	"math/rand"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

func generateTableID() int64 {
	idNodeOnce.Do(func() {
		node, err := snowflake.NewNode(rand.Int63n(1024))
		if err != nil {
			// node ids in [0, 1023] are always accepted
			panic(err)
		}
		idNode = node
	})
	return idNode.Generate().Int64()
}
