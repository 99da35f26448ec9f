package vulkan

import "time"

const engineName = "Vulkan Playground Engine"

/**
 * @brief How long a fence wait may block before the device is considered lost.
 * Covers both the per-frame render fence and immediate upload submissions.
 */
const renderFenceTimeout = 1 * time.Second

/**
 * @brief Fence wait budget for one-shot transfer submissions.
 * Uploads move whole vertex buffers, so they get more slack than a frame.
 */
const uploadFenceTimeout = 10 * time.Second
