package codegen

// abiPrelude is emitted once, before any user declaration, per spec.md
// §4.4: standard headers, the runtime container/value types, and extern
// forward declarations of every runtime ABI symbol the emitted body may
// reference. The runtime support units that define these symbols are a
// separate, fixed translation-unit set supplied by WYN_ROOT (spec.md §6,
// §9 "Runtime support library" non-goal) — this file only needs to
// declare the contract, not implement it. Names are the ones spec.md §6
// calls "illustrative of the contract, not a naming mandate"; this
// emitter picks one concrete spelling and uses it consistently.
const abiPrelude = `/* generated by wyncc — do not edit */
#include <stdio.h>
#include <stdlib.h>
#include <stdbool.h>
#include <string.h>
#include <setjmp.h>
#include <stdint.h>
#include <math.h>

/* ---- value container / heterogeneous array / map ---------------- */
typedef enum { WYN_TAG_INT, WYN_TAG_FLOAT, WYN_TAG_STR, WYN_TAG_BOOL, WYN_TAG_ARRAY } WynTag;
typedef struct WynValue WynValue;
typedef struct WynArray WynArray;
typedef struct WynMap WynMap;
typedef struct WynOptional WynOptional;
typedef struct WynResult WynResult;
typedef struct WynTuple WynTuple;
typedef struct WynFuture WynFuture;
typedef struct WynClosure WynClosure;

extern WynArray* wyn_array_new(void);
extern void wyn_array_push_int(WynArray*, int);
extern void wyn_array_push_float(WynArray*, double);
extern void wyn_array_push_str(WynArray*, const char*);
extern void wyn_array_push_bool(WynArray*, bool);
extern void wyn_array_push_array(WynArray*, WynArray*);
extern int wyn_array_get_int(WynArray*, int);
extern double wyn_array_get_float(WynArray*, int);
extern const char* wyn_array_get_str(WynArray*, int);
extern bool wyn_array_get_bool(WynArray*, int);
extern WynArray* wyn_array_get_array(WynArray*, int);
extern WynArray* wyn_array_get_nested(WynArray*, int, int);
extern void wyn_array_set_int(WynArray*, int, int);
extern void wyn_array_set_float(WynArray*, int, double);
extern void wyn_array_set_str(WynArray*, int, const char*);
extern int wyn_array_count(WynArray*);
extern WynArray* wyn_range(int start, int end, bool inclusive);
extern int arr_sum(WynArray*, int);

extern WynTuple* wyn_tuple_new(int n);
extern void wyn_tuple_set(WynTuple*, int, void*);
extern void* wyn_tuple_get(WynTuple*, int);

extern WynMap* wyn_map_new(void);
extern void wyn_map_set_int(WynMap*, const char*, int);
extern void wyn_map_set_str(WynMap*, const char*, const char*);
extern void wyn_map_set_float(WynMap*, const char*, double);
extern int wyn_map_get_int(WynMap*, const char*);
extern const char* wyn_map_get_str(WynMap*, const char*);
extern double wyn_map_get_float(WynMap*, const char*);
extern bool wyn_map_has(WynMap*, const char*);
extern void wyn_map_clear(WynMap*);
extern WynArray* wyn_map_keys(WynMap*);

/* ---- generic print --------------------------------------------- */
extern void wyn_print_int(int);
extern void wyn_print_float(double);
extern void wyn_print_str(const char*);
extern void wyn_print_bool(bool);
extern void wyn_print_array(WynArray*);

/* ---- strings ------------------------------------------------------ */
extern int string_length(const char*);
extern const char* string_substring(const char*, int, int);
extern const char* wyn_string_concat_safe(const char*, const char*);
extern const char* string_upper(const char*);
extern const char* string_lower(const char*);
extern const char* string_capitalize(const char*);
extern const char* string_reverse(const char*);
extern bool string_starts_with(const char*, const char*);
extern bool string_ends_with(const char*, const char*);
extern int string_index_of(const char*, const char*);
extern const char* string_replace(const char*, const char*, const char*);
extern const char* string_slice(const char*, int, int);
extern const char* string_repeat(const char*, int);
extern const char* wyn_int_to_string(int);
extern const char* wyn_float_to_string(double);
extern const char* wyn_bool_to_string(bool);

/* ---- option / result ------------------------------------------- */
extern WynOptional* wyn_optional_some(void*);
extern WynOptional* wyn_optional_none(void);
extern bool wyn_optional_is_some(WynOptional*);
extern bool wyn_optional_is_none(WynOptional*);
extern void* wyn_optional_unwrap(WynOptional*);
extern void* wyn_optional_unwrap_or(WynOptional*, void*);

extern WynResult* wyn_result_ok(void*);
extern WynResult* wyn_result_err(void*);
extern bool wyn_result_is_ok(WynResult*);
extern bool wyn_result_is_err(WynResult*);
extern void* wyn_result_unwrap(WynResult*);
extern void* wyn_result_unwrap_err(WynResult*);

/* ---- ARC --------------------------------------------------------- */
extern void* wyn_arc_retain(void*);
extern void wyn_arc_release(void*);
extern const char* wyn_strdup(const char*);

/* ---- numeric / bit / time / random ------------------------------- */
extern int abs_val(int);
extern double wyn_pow(double, double);
extern double wyn_clamp(double, double, double);
extern int wyn_sqrt_int(int);
extern int wyn_floor_int(double);
extern int wyn_ceil_int(double);
extern int wyn_round_int(double);
extern int wyn_gcd(int, int);
extern int wyn_lcm(int, int);
extern long wyn_time_now_millis(void);
extern int wyn_random_int(int, int);
extern double wyn_random_float(void);

/* ---- file / http --------------------------------------------------- */
extern const char* read_file_content(const char*);
extern bool check_file_exists(const char*);
extern bool wyn_file_write(const char*, const char*);
extern const char* wyn_http_get(const char*);
extern const char* wyn_http_post(const char*, const char*);

/* ---- assertion / panic / exit ------------------------------------ */
extern void wyn_assert(bool, const char*);
extern void wyn_panic(const char*);
extern void wyn_todo(const char*);
extern void wyn_exit(int);

/* ---- self-hosting helpers exported to user programs ---------------- */
extern int get_argc(void);
extern const char* get_argv(int);
extern void store_argv(int, const char*);
extern bool is_content_valid(const char*);
extern void store_file_content(const char*, const char*);

/* ---- exceptions: a long-jump target + current-message pointer ---- */
extern jmp_buf* wyn_exc_push(void);
extern void wyn_exc_pop(void);
extern const char* wyn_exc_current_message(void);
extern const char* wyn_exc_current_type(void);
extern void wyn_exc_raise(const char* type, const char* message);

/* ---- concurrency: threads + futures ------------------------------- */
extern void wyn_spawn_fast(void* (*fn)(void*), void* arg);
extern WynFuture* wyn_future_new(void);
extern void wyn_future_set_ready(WynFuture*, void*);
extern void* wyn_block_on(WynFuture*);
`
