// Package render drives a looper engine offline, block by block, the way a
// device would, from an input clip and a timeline of control events.
//
// Events are written as a comma separated list of command@time pairs:
//
//	record@0s,record@2s,play@2s,loop=0.8@4.5s,input=0@5s
//
// play and record toggle the mode; input=<g> and loop=<g> set gains, either
// linear ("0.5") or in decibels ("-6dB"). Times
// accept Go durations ("1.5s", "250ms") or plain seconds ("1.5").
package render
