// Command reactivedemo is a runnable walkthrough of the two-layer
// invalidation scenario reactivecache is built around: a read wrapper over
// a mutable file map, and a hash wrapper over a batch of reads.
package main

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/arfaz/reactivecache"
)

func main() {
	files := map[string]string{
		"a.js": "a",
		"b.js": "b",
	}

	read := reactivecache.Wrap(func(args ...interface{}) (interface{}, error) {
		name := args[0].(string)
		return files[name], nil
	})

	hash := reactivecache.Wrap(func(args ...interface{}) (interface{}, error) {
		names := *args[0].(*[]string)
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)

		h := sha1.New()
		for _, name := range sorted {
			v, _ := read.Call(name)
			fmt.Fprintf(h, "%s=%v;", name, v)
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	})

	names := []string{"a.js", "b.js"}

	v1, _ := hash.Call(&names)
	fmt.Println("initial hash:       ", v1)

	files["a.js"] = "a2"
	v2, _ := hash.Call(&names)
	fmt.Println("after mutation only:", v2, "(unchanged: mutation alone isn't observed)")

	read.Dirty("a.js")
	v3, _ := hash.Call(&names)
	fmt.Println("after read.Dirty:   ", v3, "(changed: dirtying the read forces a recompute)")

	files["b.js"] = "b2"
	read.Dirty("b.js")
	v4, _ := hash.Call(&names)
	fmt.Println("after second change:", v4)
}
