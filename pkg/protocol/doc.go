// Package protocol implements the command protocol of the clock.
//
// Commands arrive as single transport frames on CAN identifier 0x111:
//
//	byte 0    (frame type << 4) | length, frame type is 0
//	byte 1    kind: 1 time, 2 date, 3 alarm
//	time      hh mm ss          (length 4)
//	date      dd mm yyHi yyLo   (length 5)
//	alarm     hh mm             (length 3)
//
// Every well-formed single frame with length 3 to 5 is answered on
// identifier 0x122 with a single frame carrying 0x55 (accepted) or
// 0xAA (rejected). Anything else is dropped silently.
package protocol
