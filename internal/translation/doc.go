// Package translation fetches translations from two independent providers and
// reconciles them per vocabulary entry. The primary provider is called once
// per phrase on a bounded pool and also back-translates its result into the
// verification language; the secondary provider is called sequentially with
// fixed-size batches.
package translation
