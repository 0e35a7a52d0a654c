// Command memctl inspects and edits files holding packed arrays of fixed-size
// values, the on-disk format of the file-backed memory blocks.
package main

func main() {
	execute()
}
