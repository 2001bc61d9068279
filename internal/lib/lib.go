// Package lib groups the infrastructure clients that do not belong to a
// single layer: the upstream HTTP client with its Strava and Garmin Connect
// wrappers, access tokens, the asynq job queue and its cron scheduler, and
// the Resend email client.
package lib
