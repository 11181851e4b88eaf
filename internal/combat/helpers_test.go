package combat

import (
	"io/fs"
	"testing/fstest"
)

// testCampaign is a minimal Context backed by in-memory state.
type testCampaign struct {
	time    int64
	actions map[int]*Action
	group   *Group
	player  *Player
	content fs.FS
}

func newTestCampaign(t int64, actions ...*Action) *testCampaign {
	c := &testCampaign{time: t, actions: make(map[int]*Action), content: fstest.MapFS{}}
	for _, a := range actions {
		c.actions[a.ID] = a
	}
	return c
}

func (c *testCampaign) Time() int64 { return c.time }

func (c *testCampaign) FindAction(id int) *Action { return c.actions[id] }

func (c *testCampaign) PlayerGroup() *Group { return c.group }

func (c *testCampaign) Player() *Player { return c.player }

func (c *testCampaign) Content() fs.FS { return c.content }
