// Package imaging converts generated image payloads between formats and
// post-processes them into final artifacts.
//
// It has three responsibilities:
//
//   - Codec: decoding the bytes returned by the generative API into pixel
//     data, encoding pixel data as PNG or JPEG, and converting between the
//     two (JPEG encoding flattens transparency onto white, since JPEG has
//     no alpha channel).
//
//   - Icon post-processing: fitting a generated base image into square
//     canvases at requested pixel sizes, padding with a background color,
//     and optionally applying a rounded-rectangle alpha mask whose corner
//     radius scales with the canvas so icons look consistent across sizes.
//
//   - Grid composition: arranging a batch's outputs into a single montage
//     image with equal cells.
//
// All functions are stateless and safe for concurrent use on distinct
// images. Resampling uses Lanczos filtering throughout.
package imaging
