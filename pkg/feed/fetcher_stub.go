package feed

import "context"

// StubFetcher returns fixed records, or Err when set.
type StubFetcher struct {
	Records []any
	Err     error
	Calls   int
}

func (f *StubFetcher) Fetch(ctx context.Context) ([]any, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Records, nil
}
