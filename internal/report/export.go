package report

import (
	"context"

	"SettleKaro/internal/domain/dispute"

	"golang.org/x/sync/errgroup"
)

const exportConcurrency = 4

// ExportAll saves a report for every dispute that has suggestions and returns
// the written paths in input order.
func ExportAll(ctx context.Context, disputes []dispute.Dispute, dir string) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)

	paths := make([]string, len(disputes))
	for i := range disputes {
		doc := Render(&disputes[i])
		if doc == nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := doc.Save(dir)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
