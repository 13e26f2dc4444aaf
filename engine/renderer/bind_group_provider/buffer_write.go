package bind_group_provider

// BufferWrite describes a single queued write into the buffer at Binding on Provider,
// starting Offset bytes into the buffer.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
