package mock

import (
	"errors"
	"fmt"
	"io"

	"github.com/tarmac-project/wmi/variant"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrFixture is returned by Load for documents it cannot read.
var ErrFixture = errors.New("invalid fixture")

// Load builds a Provider from a JSON fixture. Each query entry may carry
// "rows", an "error" that rejects the query, and "failFetchAfter" with
// "fetchError" to make the cursor fail part way.
func Load(r io.Reader) (*Provider, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrFixture, err)
	}

	var doc structpb.Struct
	if err := protojson.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrFixture, err)
	}
	fields := doc.GetFields()

	cfg := Config{Seed: make(map[string][]Row)}
	for _, ns := range fields["namespaces"].GetListValue().GetValues() {
		cfg.Namespaces = append(cfg.Namespaces, ns.GetStringValue())
	}

	type override struct {
		text      string
		err       error
		failAfter int
		fetchErr  error
	}
	var overrides []override

	for i, q := range fields["queries"].GetListValue().GetValues() {
		qf := q.GetStructValue().GetFields()
		text := qf["text"].GetStringValue()
		if text == "" {
			return nil, fmt.Errorf("%w: query %d has no text", ErrFixture, i)
		}

		var rows []Row
		for j, rv := range qf["rows"].GetListValue().GetValues() {
			row, err := loadRow(rv.GetStructValue())
			if err != nil {
				return nil, fmt.Errorf("%w: query %d row %d: %w", ErrFixture, i, j, err)
			}
			rows = append(rows, row)
		}
		cfg.Seed[text] = rows

		o := override{text: text}
		if msg := qf["error"].GetStringValue(); msg != "" {
			o.err = errors.New(msg)
		}
		if n, ok := qf["failFetchAfter"]; ok {
			o.failAfter = int(n.GetNumberValue())
			msg := qf["fetchError"].GetStringValue()
			if msg == "" {
				msg = "fetch failed"
			}
			o.fetchErr = errors.New(msg)
		}
		if o.err != nil || o.fetchErr != nil {
			overrides = append(overrides, o)
		}
	}

	p := New(cfg)
	for _, o := range overrides {
		b := p.OnQuery(o.text)
		if o.fetchErr != nil {
			b.FailFetchAfter(o.failAfter, o.fetchErr)
		}
		if o.err != nil {
			b.ReturnError(o.err)
		}
	}
	return p, nil
}

func loadRow(st *structpb.Struct) (Row, error) {
	f := st.GetFields()
	row := Row{
		Origin: f["origin"].GetStringValue(),
		Fields: make(map[string]variant.Value),
	}
	if q := f["qualifiers"].GetStructValue(); q != nil {
		row.Qualifiers = make(map[string]string, len(q.GetFields()))
		for k, v := range q.GetFields() {
			row.Qualifiers[k] = v.GetStringValue()
		}
	}
	for name, pv := range f["fields"].GetStructValue().GetFields() {
		v, err := variant.FromProto(pv)
		if err != nil {
			return Row{}, fmt.Errorf("field %s: %w", name, err)
		}
		row.Fields[name] = v
	}
	return row, nil
}
