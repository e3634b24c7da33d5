package main

import "time"

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
