/*Package interval implements the genomic-interval operations needed to turn a
  region of interest into primer-design targets: a coordinate-base aware
  GenomicInterval value, BED loading, interval-union (overlapping and touching
  intervals are merged, not tracked separately), overlap queries against an
  annotation set, span-deduplicating sets, and window splitting.
  Union endpoints are stored as PosType, which is int32 since that's what BAM
  files are limited to.
*/
package interval
