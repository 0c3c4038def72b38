// Package audiofile loads and saves whole clips for offline rendering.
//
// WAV and AIFF are decoded with the go-audio packages, MP3 with go-mp3 and
// Ogg Vorbis with oggvorbis. Clips are always written as 16-bit PCM WAV.
package audiofile
