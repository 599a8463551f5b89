/*
Package lexicon stores the word lists a Markov word model is trained on, in a
SQLite database shared by any number of named dictionaries.

Besides the words themselves, it records the verdicts a reviewer gives to
generated words, so that rejected words can be unlearned on the next run and
accepted ones kept apart from the source dictionary. It also provides the
reading and normalisation of raw word lists and the filter that separates
novel generated words from known ones.
*/
package lexicon
