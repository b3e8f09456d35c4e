package eh

import (
	peemit "github.com/wippyai/pe-emit"
	"github.com/wippyai/pe-emit/errors"
	"github.com/wippyai/pe-emit/internal/binary"
)

// Method data section flags.
const (
	sectEHTable   = 0x01
	sectFatFormat = 0x40
)

// Clause flags as stored in the section.
const (
	clauseCatch   = 0x0000
	clauseFilter  = 0x0001
	clauseFinally = 0x0002
	clauseFault   = 0x0004
)

const (
	smallHeaderSize = 4
	smallClauseSize = 12
	fatHeaderSize   = 4
	fatClauseSize   = 24

	// MaxSmallRegions is the largest clause count whose section size fits the
	// one-byte data size of a small header.
	MaxSmallRegions = (0xff - smallHeaderSize) / smallClauseSize

	maxFatRegions = (0xffffff - fatHeaderSize) / fatClauseSize
)

// TokenResolver maps a catch type to its metadata token.
type TokenResolver func(peemit.TypeReference) uint32

// FitsSmall reports whether r can be stored as a small clause.
func FitsSmall(r Region) bool {
	return r.tryStart <= 0xffff &&
		r.TryLength() <= 0xff &&
		r.handlerStart <= 0xffff &&
		r.HandlerLength() <= 0xff
}

// RequiresFat reports whether the regions of one method must use the fat
// encoding. One region needing wide fields forces every region to be wide.
func RequiresFat(regions []Region) bool {
	if len(regions) > MaxSmallRegions {
		return true
	}
	for _, r := range regions {
		if !FitsSmall(r) {
			return true
		}
	}
	return false
}

// EncodeSection encodes the exception section for one method body. An empty
// region list encodes to nil. tokens is consulted for catch regions only.
func EncodeSection(regions []Region, tokens TokenResolver) ([]byte, error) {
	if len(regions) == 0 {
		return nil, nil
	}
	if len(regions) > maxFatRegions {
		return nil, errors.New(errors.PhaseRegion, errors.KindOverflow).
			Value(len(regions)).
			Detail("%d exception regions exceed the section size limit", len(regions)).
			Build()
	}

	w := binary.NewWriter()
	if RequiresFat(regions) {
		w.Byte(sectEHTable | sectFatFormat)
		w.WriteU24(uint32(fatHeaderSize + len(regions)*fatClauseSize))
		for _, r := range regions {
			w.WriteU32(uint32(clauseFlags(r.kind)))
			w.WriteU32(r.tryStart)
			w.WriteU32(r.TryLength())
			w.WriteU32(r.handlerStart)
			w.WriteU32(r.HandlerLength())
			w.WriteU32(classTokenOrFilter(r, tokens))
		}
		return w.Bytes(), nil
	}

	w.Byte(sectEHTable)
	w.Byte(byte(smallHeaderSize + len(regions)*smallClauseSize))
	w.WriteU16(0)
	for _, r := range regions {
		w.WriteU16(clauseFlags(r.kind))
		w.WriteU16(uint16(r.tryStart))
		w.Byte(byte(r.TryLength()))
		w.WriteU16(uint16(r.handlerStart))
		w.Byte(byte(r.HandlerLength()))
		w.WriteU32(classTokenOrFilter(r, tokens))
	}
	return w.Bytes(), nil
}

func clauseFlags(k Kind) uint16 {
	switch k {
	case KindCatch:
		return clauseCatch
	case KindFilter:
		return clauseFilter
	case KindFinally:
		return clauseFinally
	case KindFault:
		return clauseFault
	}
	panic(errors.Violation(errors.PhaseRegion, "unknown region kind %d", k))
}

func classTokenOrFilter(r Region, tokens TokenResolver) uint32 {
	switch r.kind {
	case KindCatch:
		errors.Assert(tokens != nil, errors.PhaseRegion, "catch region encoded without a token resolver")
		return tokens(r.exceptionType)
	case KindFilter:
		return r.filterStart
	default:
		return 0
	}
}
