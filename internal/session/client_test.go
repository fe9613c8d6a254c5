package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendAfterCloseIsDropped(t *testing.T) {
	c := NewClient(nil, nil, "user_x", "doc_y", "client_z")
	c.closeSend()

	assert.NotPanics(t, func() {
		c.Send(&Message{Type: TypeDocSync})
	})

	// closeSend is idempotent.
	assert.NotPanics(t, c.closeSend)
}

func TestConcurrentSendAndClose(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := NewClient(nil, nil, "user_x", "doc_y", "client_z")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Send(&Message{Type: TypeDocSync})
			}
		}()
		go func() {
			defer wg.Done()
			c.closeSend()
		}()
		wg.Wait()
	}
}
