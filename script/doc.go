// Package script parses and replays I2C bridge command scripts.
//
// # Overview
//
// A script is a plain text file with one bridge command per line. Blank lines
// are skipped and "#" starts a comment that runs to the end of the line.
// Lines beginning with the EXPECT keyword are not sent; they validate the most
// recent data reply against a regular expression:
//
//	a 6b                # select the IMU
//	wr 0f 1             # read WHO_AM_I
//	EXPECT "6C"
//
// # Basic Usage
//
//	s, err := script.Parse("probe.i2c")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := script.New(port)
//	report, err := r.Run(ctx, s)
//	if err != nil {
//	    log.Fatal(err) // transport failure or timeout
//	}
//	if err := report.Err(); err != nil {
//	    log.Fatal(err) // one or more expectations failed
//	}
//
// # Reply Collection
//
// Commands that read ("r" and "wr") wait up to ReadTimeout from the send for
// a data line; diagnostics arriving first do not shorten that wait. Other
// commands collect diagnostics until the line has been quiet for
// SettleTime. A data reply replaces the last reply; a command without one
// clears it, so an EXPECT after a failed read is evaluated against "".
//
// # Pattern Engines
//
// EXPECT patterns are unanchored. The default RegexpMatcher uses RE2 syntax;
// BacktrackMatcher accepts Perl-style syntax such as look-arounds.
package script
