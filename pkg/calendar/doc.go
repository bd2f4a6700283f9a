// Package calendar imports ICS calendar files as MCU-programmable
// events.
package calendar

// The MCU schedules single, non-repeating alarm intervals. Only the
// start time, end time and summary of each VEVENT are used; recurrence
// rules are ignored. All times are normalized to UTC so the firmware
// never deals with timezones or daylight saving.
