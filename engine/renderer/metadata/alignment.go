package metadata

// PadUniformBufferSize rounds size up to the next multiple of alignment.
// alignment is the device's minUniformBufferOffsetAlignment and is guaranteed
// to be a power of two; zero means the device imposes no constraint.
func PadUniformBufferSize(size, alignment uint64) uint64 {
	if alignment == 0 {
		return size
	}
	return (size + alignment - 1) &^ (alignment - 1)
}

// SceneDataOffset is the byte offset of frame slot i's copy of the scene
// block inside the shared uniform region.
func SceneDataOffset(frameIndex uint64, alignment uint64) uint64 {
	return frameIndex * PadUniformBufferSize(GPUSceneDataSize, alignment)
}

// SharedSceneBufferSize is the total size of the shared uniform region:
// FrameOverlap padded copies of the scene block.
func SharedSceneBufferSize(alignment uint64) uint64 {
	return uint64(FrameOverlap) * PadUniformBufferSize(GPUSceneDataSize, alignment)
}
