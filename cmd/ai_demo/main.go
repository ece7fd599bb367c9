// README: Generates one itinerary with Gemini and prints it as scheduled blocks.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"itinera/internal/ai"
	"itinera/internal/modules/classifier"
)

func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	provider, err := ai.NewGeminiProvider(ctx, apiKey, ai.DefaultGeminiModel, ai.DefaultGeminiTemperature)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	logger, _ := zap.NewDevelopment()
	itinerary := ai.NewItinerary(provider, ai.ItineraryOptions{Enabled: true}, logger)

	userMessage := "下週末去台南兩天，想吃小吃、看古蹟，不想走太多路"
	if len(os.Args) > 1 {
		userMessage = strings.Join(os.Args[1:], " ")
	}
	fmt.Printf("User: %s\n", userMessage)

	res := classifier.New().Classify(userMessage)
	fmt.Printf("Type: %s  Destination: %s  Risk: %v\n", res.InputType, res.Slots.Destination.Value, res.RiskFlags)

	req := ai.RequestFromSlots(res.Slots, nil)
	p, err := itinerary.GenerateAIItinerary(ctx, req)
	if err != nil {
		log.Fatalf("Error generating itinerary: %v", err)
	}

	result := ai.ToPlanResult(p, req.Destination, res.Assumptions, res.RiskFlags, time.Local)
	for _, d := range result.Days {
		fmt.Printf("\n%s\n", d.Date)
		for _, b := range d.Blocks {
			fmt.Printf("  %s-%s  %-8s %s\n", b.Start.Format("15:04"), b.End.Format("15:04"), b.Type, b.Title)
		}
	}
}
