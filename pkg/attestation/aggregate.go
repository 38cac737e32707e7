package attestation

import "context"

// BuildTable looks up every (topic, issuer) pair for holder and returns
// them as a topic -> issuer -> value table. Lookups run one at a time in
// topic-major order. The first failing lookup aborts the whole table.
func BuildTable(
	ctx context.Context,
	holder string,
	issuers []string,
	topics []string,
	lookup LookupFunc,
) (Claims, error) {
	uniqueIssuers := uniqueStrings(issuers)
	uniqueTopics := uniqueStrings(topics)

	table := make(Claims, len(uniqueTopics))
	for _, topic := range uniqueTopics {
		row := make(map[string]StoredValue, len(uniqueIssuers))
		for _, issuer := range uniqueIssuers {
			if err := ctx.Err(); err != nil {
				return nil, &LookupError{Holder: holder, Issuer: issuer, Topic: topic, Err: err}
			}
			value, err := lookup(ctx, holder, issuer, topic)
			if err != nil {
				return nil, &LookupError{Holder: holder, Issuer: issuer, Topic: topic, Err: err}
			}
			row[issuer] = value
		}
		table[topic] = row
	}
	return table, nil
}

// MapClaims applies transform to every leaf of claims, keeping the
// topic and issuer keys as they are.
func MapClaims[T any](claims Claims, transform func(StoredValue) T) map[string]map[string]T {
	mapped := make(map[string]map[string]T, len(claims))
	for topic, issuers := range claims {
		row := make(map[string]T, len(issuers))
		for issuer, value := range issuers {
			row[issuer] = transform(value)
		}
		mapped[topic] = row
	}
	return mapped
}

// ClaimsView is a claims table with on-demand hex and byte projections.
type ClaimsView struct {
	Claims Claims
}

// WithViews wraps claims. Nothing is converted until AsHex or AsBytes is
// called.
func WithViews(claims Claims) ClaimsView {
	return ClaimsView{Claims: claims}
}

// AsHex returns every value as its stripped hex string.
func (v ClaimsView) AsHex() ClaimsAsHex {
	return ClaimsAsHex(MapClaims(v.Claims, StoredValue.Hex))
}

// AsBytes returns every value decoded to raw bytes.
func (v ClaimsView) AsBytes() ClaimsAsBytes {
	return ClaimsAsBytes(MapClaims(v.Claims, StoredValue.Bytes))
}

// Get returns the value recorded by issuer for topic.
func (v ClaimsView) Get(topic string, issuer string) (StoredValue, bool) {
	issuers, ok := v.Claims[topic]
	if !ok {
		return StoredValue{}, false
	}
	value, ok := issuers[issuer]
	return value, ok
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	return unique
}
