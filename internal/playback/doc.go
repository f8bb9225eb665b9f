// Package playback owns the preview session: which track (if any) is playing, the audio player behind it,
// and the once-per-second progress ticker.
//
// A [Session] is the only writer of playback state. Presentation layers issue commands ([Session.Play],
// [Session.Stop], [Session.Seek]) from any goroutine and observe the outcome exclusively through
// [Session.Events]. Transitions are serialized, so a second Play queues behind the first.
//
// States:
//
//	Idle --play(t)------> Playing(t)
//	Playing(t) --play(t)--> Idle                 (toggle)
//	Playing(t) --play(u)--> Idle -> Playing(u)   (emits Stopped(t) then Started(u))
//	Playing(t) --end-----> Idle
//	Playing(t) --stop----> Idle
//	Playing(t) --seek----> Playing(t)
package playback
