// Package correlation holds the state that links trace events to frames.
//
// A frame is identified by the buffer timestamp it carries through the
// pipeline, but the capture and display traces only name the buffer
// pointer. Two pending maps bridge the gap:
//
//	FillBufferDone buf=B        -> capture pending[B] = clock
//	push <cam0:src> buf=B ts=T  -> timeline T starts at capture pending[B]
//	push <dec0:src> buf=D ts=T  -> decode pending[D] = T
//	display buf=D               -> appended to timeline decode pending[D]
//
// Buffer pointers are recycled by the allocator. A later trace for the same
// pointer replaces the earlier pending value.
package correlation
