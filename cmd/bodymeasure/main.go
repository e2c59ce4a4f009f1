package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/bodymeasure/internal/app"
)

func main() {
	fmt.Println("Bodymeasure - Pose Estimation and Body Measurement")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(app.DefaultConfig())

	fmt.Println("Press 'q' in the window to quit")
	if err := application.Run(ctx); err != nil {
		log.Fatalf("Bodymeasure failed: %v", err)
	}

	stats := application.Stats()
	log.Printf("Processed %d frames, pose found in %d", stats.Frames, stats.Detections)
}
