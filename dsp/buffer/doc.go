// Package buffer provides the growable multi-channel sample store used by the
// looper for both the capture buffer and the loop buffer.
//
// A Buffer separates allocated capacity from the logical valid length, so an
// append-only writer can reserve storage geometrically (Grow) and a reader can
// treat the valid prefix as the playable content. Channel mismatches between a
// source block and a Buffer are resolved with a wraparound map: destination
// channel ch reads source channel ch % sourceChannels.
package buffer
