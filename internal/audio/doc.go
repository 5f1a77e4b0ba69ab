// Package audio plays finished MP3 episodes through the default output
// device using oto/v3, and reads basic MP3 facts (duration, sample rate)
// with go-mp3.
package audio
