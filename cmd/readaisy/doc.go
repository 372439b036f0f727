// Command readaisy converts DAISY 2.02 digital talking books into per-book
// directories of sequentially named audio files with a Reaper project that
// lays the book out on a single track with heading markers.
package main
