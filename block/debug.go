package block

import (
	"bytes"

	"github.com/davecgh/go-spew/spew"
	"github.com/pierrec/lz4/v4"
)

// DumpArena compresses a snapshot of the string arena's current contents,
// the same way the teacher's compression.CompressLz4 compresses slab
// bytes before persisting them — here the output is a debug artifact for
// inspecting a large evaluation's string payload, not anything this core
// reads back.
func DumpArena(a *StringArena) ([]byte, error) {
	var out bytes.Buffer
	zw := lz4.NewWriter(&out)
	if _, err := zw.Write(a.data); err != nil {
		return nil, err
	}
	if err := zw.Flush(); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DumpView renders v's columns with go-spew, for inclusion in test
// failure messages when a mismatch is hard to see from a plain %v.
func DumpView(v *View) string {
	return spew.Sdump(v)
}
