package service

import "log"

// best-effort steps log and move on instead of failing the flow
var logf = log.Printf
