// Package output renders command results for respkv-cli.
//
// Replies are resp.Frame values. The text format prints them the way
// redis-cli does; json and yaml convert them to plain values first.
// Structs, maps and slices are rendered as aligned tables in text mode.
package output
