// Command memctl drives the word allocator from the command line: it replays
// allocate/free scripts and prints the resulting free list, bitmap and map.
package main

func main() {
	execute()
}
