/*
bio-snpstruct runs RNA structure tools over a FASTA file of point mutations
and collects their reports into one table per tool.

Every record description must end in a SNP tag <ref><1-based pos><alt>, for
example

  >var17 5'UTR hairpin G20C
  GGGAAACCCUUUGGGAAACCCUUU

Supported tools are RNAsnp and remuRNA; both must be installed.

  bio-snpstruct run variants.fa out/res 200
  bio-snpstruct run variants.fa out/res 200 4 0   # first of 4 splits
  bio-snpstruct run-all variants.fa out/res 200 4
  bio-snpstruct merge out/res 4

Each run writes out/res_<split>_<tool>.csv: tab-separated, keyed by the record
ID, with the tool's columns and a trailing tool-parameters:window=<W> column.
*/
package main
