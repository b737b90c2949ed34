package main

import (
	"context"
	"fmt"
	"log"
	"os"

	chesslib "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"

	"github.com/park285/detailed-moves/internal/classify"
	appcfg "github.com/park285/detailed-moves/internal/config"
	"github.com/park285/detailed-moves/internal/msgcat"
	"github.com/park285/detailed-moves/internal/openingbook"
)

// usage: ecocheck [SAN...]
//
//	ecocheck e4 e5 Nf3
func main() {
	cfg, err := appcfg.LoadEco()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	catalog, err := msgcat.New(cfg.Locale, cfg.MessagesDir)
	if err != nil {
		log.Fatalf("catalog error: %v", err)
	}
	url := cfg.EcoURL

	fetcher := openingbook.NewFetcher(openingbook.WithTimeout(cfg.EcoTimeout))
	ctx, cancel := context.WithTimeout(context.Background(), 3*cfg.EcoTimeout)
	defer cancel()
	raw, err := fetcher.Fetch(ctx, url)
	if err != nil {
		log.Fatalf("fetch error: %v", err)
	}
	entries, err := openingbook.ParseTable(raw)
	if err != nil {
		log.Fatalf("parse error: %v", err)
	}
	idx := openingbook.NewIndex(entries)
	fmt.Println(render(catalog, "ecocheck.loaded", map[string]any{"Count": idx.Len(), "Source": url}))

	sans := os.Args[1:]
	if len(sans) == 0 {
		return
	}

	// check every prefix so the output shows where the line leaves the table
	for n := 1; n <= len(sans); n++ {
		pgn := classify.BuildPGN(sans[:n])
		if entry, ok := idx.Match(pgn); ok {
			fmt.Println(render(catalog, "ecocheck.match", map[string]any{"PGN": pgn, "Name": entry.Name}))
		} else {
			fmt.Println(render(catalog, "ecocheck.miss", map[string]any{"PGN": pgn}))
		}
	}

	// cross-check against the ECO book bundled with the chess library
	game := chesslib.NewGame()
	for i, mv := range sans {
		if err := game.PushNotationMove(mv, chesslib.AlgebraicNotation{}, nil); err != nil {
			log.Printf("replay stopped at ply %d %q: %v", i, mv, err)
			break
		}
	}
	book := opening.NewBookECO()
	if o := book.Find(game.Moves()); o != nil {
		fmt.Println(render(catalog, "ecocheck.eco", map[string]any{"Code": o.Code(), "Title": o.Title()}))
	} else {
		fmt.Println(render(catalog, "ecocheck.eco_none", nil))
	}
}

func render(c *msgcat.Catalog, key string, data any) string {
	out, err := c.Render(key, data)
	if err != nil {
		return fmt.Sprintf("%s %v", key, data)
	}
	return out
}
