package logger

import (
    "os"

    "go.uber.org/zap"
)

// Log is the shared application logger. Call Init once from main before use.
var Log *zap.Logger

func Init() {
    var err error
    if os.Getenv("APP_ENV") == "development" {
        Log, err = zap.NewDevelopment()
    } else {
        Log, err = zap.NewProduction()
    }
    if err != nil {
        panic(err)
    }
}

func init() {
    // Keep Log usable in tests that never call Init.
    Log = zap.NewNop()
}
