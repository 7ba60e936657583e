// Command slots_preview resolves free slots from a YAML fixture and prints
// them, optionally drawing the first week as a PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/controller/formatting"
	"github.com/Freeeeeet/availability_bot/internal/controller/render"
)

func main() {
	fixturePath := flag.String("fixture", "cmd/slots_preview/testdata/example.yaml", "path to the YAML fixture")
	pngPath := flag.String("png", "", "write a week picture to this file")
	flag.Parse()

	in, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	res, err := availability.Resolve(in.Schedule, in.Event, in.Busy, in.Range, in.Now)
	if err != nil {
		log.Fatalf("Failed to resolve slots: %v", err)
	}

	loc, err := availability.LoadZone(in.Schedule.Timezone)
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	fmt.Printf("%s (%s), times in %s\n\n", in.Name, formatting.Duration(in.Event.DurationMinutes), loc)
	fmt.Println(formatting.Slots(res.Slots, loc, 0))
	for _, w := range res.Warnings {
		fmt.Println("warning:", w)
	}

	if *pngPath == "" {
		return
	}

	week := render.NewWeek(in.Name, in.Schedule, loc, availability.DateOf(in.Range.From, loc), res.Slots, in.Now)
	img, err := render.Render(week)
	if err != nil {
		log.Fatalf("Failed to render week: %v", err)
	}
	if err := os.WriteFile(*pngPath, img, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *pngPath, err)
	}
	fmt.Println("\nWeek picture written to", *pngPath)
}
