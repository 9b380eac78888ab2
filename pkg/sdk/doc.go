// Package petmatch embeds the lost/found pet matching workflow in a Go program.
//
// The client stores reports in Valkey, Redis or process memory and scores every
// found report against the active lost reports with the same engine the HTTP
// service uses.
//
//	client, _ := petmatch.New(ctx,
//	    petmatch.WithValkey("localhost:6379", ""),
//	    petmatch.WithOpenAI("sk-...", "", "clip-vit-b-32"),
//	)
//	defer client.Close()
//
//	_, _ = client.Pets().Submit(ctx, petmatch.Report{Status: petmatch.Lost, Breed: "beagle", Images: urls})
//	res, _ := client.Pets().Submit(ctx, petmatch.Report{Status: petmatch.Found, Images: found})
//	for _, m := range res.Matches {
//	    fmt.Println(m.LostID, m.Score)
//	}
package petmatch
